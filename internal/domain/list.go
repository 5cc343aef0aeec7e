package domain

// TablePage is one page of dataset rows after filtering and sorting.
type TablePage struct {
	Rows       []EdgeRecord
	Total      int
	Page       int
	Size       int
	TotalPages int
	Columns    []string
}

// FilterOptions lists the distinct origins and destinations of the dataset.
type FilterOptions struct {
	Origins      []string
	Destinations []string
}
