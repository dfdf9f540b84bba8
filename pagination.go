package main

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

type Page struct {
	Num int
	URL string
}

type Pages []Page

type PaginationConfig struct {
	ipp   int
	page  int
	total int
	url   string
	param string
}

func Pagination(pc PaginationConfig) Pages {
	if pc.ipp <= 0 || pc.total <= pc.ipp {
		return make(Pages, 0)
	}
	pCount := int(math.Ceil(float64(pc.total) / float64(pc.ipp)))
	pages := make(Pages, pCount)
	// Normalize first page
	if pc.page == 0 {
		pc.page = 1
	}
	pUrl, err := url.Parse(pc.url)
	if err != nil {
		pUrl = &url.URL{}
	}
	val := pUrl.Query()

	for i := 1; i <= pCount; i++ {
		// Don't set the url for the current page
		tURL := ""
		if i != pc.page {
			val.Set(pc.param, strconv.Itoa(i))
			pUrl.RawQuery = val.Encode()
			tURL = pUrl.String()
		}
		pages[i-1] = Page{i, tURL}
	}
	return pages
}

// Link renders the first, prev, next and last pages relative to current
// as an RFC 5988 Link header value.
func (p Pages) Link(current int) string {
	var links []string
	add := func(num int, rel string) {
		if num < 1 || num > len(p) || p[num-1].URL == "" {
			return
		}
		links = append(links, fmt.Sprintf(`<%s>; rel="%s"`, p[num-1].URL, rel))
	}
	add(1, "first")
	add(current-1, "prev")
	add(current+1, "next")
	add(len(p), "last")
	return strings.Join(links, ", ")
}
