// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package location manages physical storage locations.

One location, identified by a reserved slug, is the default: books created
without a location are shelved there. The default cannot be deleted.
*/
package location

import "github.com/qumran/qumran/internal/catalog/named"

// Location is a shelf, room or box with its computed book count.
type Location = named.Entity

// Input is the writable part of a [Location].
type Input = named.Input

// Resource names the entity in messages.
const Resource = "Location"
