package api

import "encoding/json"

// VideosResponse is one page of a Vimeo list endpoint.
type VideosResponse struct {
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Paging  Paging            `json:"paging"`
	Data    []json.RawMessage `json:"data"`
}

type Paging struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	First    *string `json:"first"`
	Last     *string `json:"last"`
}

// NextURI returns the relative uri of the next page, or "" on the last page.
func (p Paging) NextURI() string {
	if p.Next == nil {
		return ""
	}
	return *p.Next
}

type vimeoAPIError struct {
	Error            string `json:"error"`
	DeveloperMessage string `json:"developer_message"`
	ErrorCode        int    `json:"error_code"`
}
