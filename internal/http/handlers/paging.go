package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/microservice-production/internal/platform/apierr"
	"github.com/yungbote/microservice-production/internal/resource"
)

// parsePageRequest reads page, size and repeated sort=property[,property...][,asc|desc].
func parsePageRequest(c *gin.Context) (resource.PageRequest, error) {
	req := resource.PageRequest{Page: 0, Size: resource.DefaultPageSize}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierr.BadRequest("invalid_page", fmt.Errorf("page must be an integer"))
		}
		req.Page = p
	}
	if raw := strings.TrimSpace(c.Query("size")); raw != "" {
		s, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierr.BadRequest("invalid_size", fmt.Errorf("size must be an integer"))
		}
		req.Size = s
	}
	for _, raw := range c.QueryArray("sort") {
		req.Sort = append(req.Sort, parseSort(raw)...)
	}
	return req, nil
}

func parseSort(raw string) []resource.SortOrder {
	parts := strings.Split(raw, ",")
	dir := resource.Asc
	if n := len(parts); n > 1 {
		switch strings.ToLower(strings.TrimSpace(parts[n-1])) {
		case "asc":
			parts = parts[:n-1]
		case "desc":
			dir = resource.Desc
			parts = parts[:n-1]
		}
	}
	out := make([]resource.SortOrder, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, resource.SortOrder{Property: p, Direction: dir})
		}
	}
	return out
}
