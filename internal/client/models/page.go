package models

// PageInfo is the position metadata every paginated response carries.
type PageInfo struct {
	Total int
	Page  int
	Limit int
}

// NextPageParam returns page+1 while page*limit is below total, and false
// once the stream is exhausted. A non-positive limit never has a next page.
func (p PageInfo) NextPageParam() (int, bool) {
	if p.Limit <= 0 {
		return 0, false
	}
	if p.Page*p.Limit < p.Total {
		return p.Page + 1, true
	}
	return 0, false
}

// Page is one batch of a paginated list: {data, total, page, limit}.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p *Page[T]) Info() PageInfo {
	return PageInfo{Total: p.Total, Page: p.Page, Limit: p.Limit}
}

func (p *Page[T]) Len() int {
	return len(p.Data)
}

func (p *Page[T]) NextPageParam() (int, bool) {
	return p.Info().NextPageParam()
}
