package main

import (
	"strconv"

	"github.com/aquilax/catalog/node"
	"github.com/gosimple/slug"
)

func nodeSlug(s string) string {
	if sl := slug.Make(s); sl != "" {
		return sl
	}
	return "node"
}

func idString(id node.NodeID) string {
	return strconv.FormatInt(id, 10)
}
