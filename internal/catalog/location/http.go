// Copyright (c) 2026 Qumran. All rights reserved.

package location

import "github.com/qumran/qumran/internal/catalog/named"

// NewHandler serves the location routes.
func NewHandler(service *Service) *named.Handler {
	return named.NewHandler(service, Resource)
}
