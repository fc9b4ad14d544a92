package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/backend/internal/types"
)

// Paginator reads page and page_size from the query string.
type Paginator struct {
	DefaultSize int
	MaxSize     int
}

var (
	StandardPagination = Paginator{DefaultSize: 20, MaxSize: 100}
	SmallPagination    = Paginator{DefaultSize: 10, MaxSize: 50}
)

// PageResult is the paginated list payload.
type PageResult struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Page parses the requested window. A page that is not a positive integer is
// answered with a 404. A bad page_size falls back to the default and large
// ones are clamped.
func (p Paginator) Page(c *gin.Context) (types.Page, bool) {
	page := types.Page{Number: 1, Size: p.DefaultSize}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond(c, http.StatusNotFound, "invalid page", nil)
			return page, false
		}
		page.Number = n
	}
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Size = n
		}
	}
	if page.Size > p.MaxSize {
		page.Size = p.MaxSize
	}
	return page, true
}

// paginated writes one page of results. Asking for a page past the end is a
// 404, except for the first page of an empty list.
func paginated(c *gin.Context, page types.Page, total int64, results interface{}) {
	if page.Number > 1 && int64(page.Offset()) >= total {
		respond(c, http.StatusNotFound, "invalid page", nil)
		return
	}
	out := PageResult{Count: total, Results: results}
	if int64(page.Offset()+page.Size) < total {
		next := pageURL(c, page.Number+1)
		out.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(c, page.Number-1)
		out.Previous = &prev
	}
	ok(c, "success", out)
}

func pageURL(c *gin.Context, number int) string {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	u.Host = c.Request.Host
	q := u.Query()
	if number == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
