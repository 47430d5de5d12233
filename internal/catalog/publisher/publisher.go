// Copyright (c) 2026 Qumran. All rights reserved.

// Package publisher manages publishers. Besides plain CRUD, book submissions
// name publishers as free text, resolved through [Service.FindOrCreate].
package publisher

import "github.com/qumran/qumran/internal/catalog/named"

// Publisher is a publishing house with its computed book count.
type Publisher = named.Entity

// Input is the writable part of a [Publisher].
type Input = named.Input

// Resource names the entity in messages.
const Resource = "Publisher"
