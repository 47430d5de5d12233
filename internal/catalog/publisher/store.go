// Copyright (c) 2026 Qumran. All rights reserved.

package publisher

import (
	"context"

	"github.com/qumran/qumran/internal/catalog/named"
)

// Repository defines the data access contract for publishers.
type Repository interface {
	named.Repository

	/*
		FindOrCreate returns the publisher whose name equals name ignoring
		case, creating it when there is none.

		Returns:
		  - *Publisher: the existing or new row
		  - bool: true when the row was created by this call
		  - error: classified store failure
	*/
	FindOrCreate(context context.Context, name string) (*Publisher, bool, error)
}
