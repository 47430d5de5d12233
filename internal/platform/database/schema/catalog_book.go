// Copyright (c) 2026 Qumran. All rights reserved.

package schema

// BookTable represents the 'books' table.
type BookTable struct {
	Table        string
	ID           string
	Title        string
	ISBN         string
	Year         string
	Pages        string
	Description  string
	Tags         string
	Author1ID    string
	Author2ID    string
	PublisherID  string
	CategoryID   string
	LocationID   string
	ExternalLink string
	DirectDL     string
	Filename     string
	CID          string
	SortTitle    string
	CreatedAt    string
	UpdatedAt    string
}

// Book is the schema definition for books.
var Book = BookTable{
	Table:        "books",
	ID:           "id",
	Title:        "title",
	ISBN:         "isbn",
	Year:         "year",
	Pages:        "pages",
	Description:  "description",
	Tags:         "tags",
	Author1ID:    "author1_id",
	Author2ID:    "author2_id",
	PublisherID:  "publisher_id",
	CategoryID:   "category_id",
	LocationID:   "location_id",
	ExternalLink: "external_link",
	DirectDL:     "dir_dwl",
	Filename:     "filename",
	CID:          "cid",
	SortTitle:    "sort_title",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}
