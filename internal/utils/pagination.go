package utils

import (
	"math"
)

type Page struct {
	Number int
	IsLink bool
}

// Pagination is handed to the _pagination.html partial.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []Page
}

// GeneratePagination builds the page list for the pagination partial: a
// window around the current page plus the first and last pages, with zeros
// standing in for ellipses.
func GeneratePagination(currentPage, totalPages int) *Pagination {
	if totalPages <= 1 {
		return nil
	}

	var pages []Page
	window := 2 // pages shown on each side of the current page

	pages = append(pages, Page{Number: 1, IsLink: true})

	if currentPage > window+2 {
		pages = append(pages, Page{Number: 0, IsLink: false}) // Ellipsis
	}

	start := int(math.Max(2, float64(currentPage-window)))
	end := int(math.Min(float64(totalPages-1), float64(currentPage+window)))
	for i := start; i <= end; i++ {
		pages = append(pages, Page{Number: i, IsLink: true})
	}

	if currentPage < totalPages-(window+1) {
		pages = append(pages, Page{Number: 0, IsLink: false}) // Ellipsis
	}

	if totalPages > 1 {
		pages = append(pages, Page{Number: totalPages, IsLink: true})
	}

	// Drop duplicates the window may have produced and unlink the current page.
	finalPages := []Page{}
	seen := make(map[int]bool)
	for _, p := range pages {
		if p.Number == currentPage {
			p.IsLink = false
		}
		if p.Number == 0 {
			finalPages = append(finalPages, p)
			continue
		}
		if !seen[p.Number] {
			finalPages = append(finalPages, p)
			seen[p.Number] = true
		}
	}

	return &Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		Pages:       finalPages,
	}
}
