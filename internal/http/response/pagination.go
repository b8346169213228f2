package response

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/microservice-production/internal/resource"
)

const HeaderTotalCount = "X-Total-Count"

// WritePageHeaders sets X-Total-Count and a Link header (next, prev, last, first) built
// from the current request URL with page and size replaced.
func WritePageHeaders(c *gin.Context, meta resource.PageMeta) {
	c.Header(HeaderTotalCount, strconv.FormatInt(meta.TotalElements, 10))
	c.Header("Link", LinkHeader(requestURL(c), meta))
}

func LinkHeader(base *url.URL, meta resource.PageMeta) string {
	links := make([]string, 0, 4)
	if meta.Next != nil {
		links = append(links, pageLink(base, *meta.Next, meta.Size, "next"))
	}
	if meta.Prev != nil {
		links = append(links, pageLink(base, *meta.Prev, meta.Size, "prev"))
	}
	links = append(links, pageLink(base, meta.Last, meta.Size, "last"))
	links = append(links, pageLink(base, meta.First, meta.Size, "first"))
	return strings.Join(links, ",")
}

func pageLink(base *url.URL, page, size int, rel string) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return fmt.Sprintf("<%s>; rel=\"%s\"", u.String(), rel)
}

func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); proto != "" {
		u.Scheme = proto
	}
	u.Host = c.Request.Host
	return &u
}
