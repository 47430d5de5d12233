// Copyright (c) 2026 Qumran. All rights reserved.

package publisher

import "github.com/qumran/qumran/internal/catalog/named"

// NewHandler serves the publisher routes.
func NewHandler(service *Service) *named.Handler {
	return named.NewHandler(service, Resource)
}
