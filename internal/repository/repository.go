// Package repository handles all interactions with the databases.
//
// PostgreSQL repositories hold raw SQL and scan rows with pgx's struct
// mapping; the conversation repository talks to MongoDB. Errors are
// returned wrapped and tagged with their table so sqlerr.HandleError can
// turn them into HTTP errors.
package repository

import (
	"fmt"
	"strings"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/jackc/pgx/v5"
)

// conditions collects WHERE fragments and their named arguments.
type conditions struct {
	parts []string
	args  pgx.NamedArgs
}

func newConditions() *conditions {
	return &conditions{args: pgx.NamedArgs{}}
}

// add appends cond and binds value to @name. An empty name adds a
// fragment without an argument.
func (c *conditions) add(cond, name string, value any) {
	c.parts = append(c.parts, cond)
	if name != "" {
		c.args[name] = value
	}
}

func (c *conditions) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// page binds the limit and offset of q and returns the matching clause.
func (c *conditions) page(q model.ListQuery) string {
	c.args["limit"] = q.Limit
	c.args["offset"] = q.Offset()
	return " LIMIT @limit OFFSET @offset"
}

// orderBy maps a ListQuery sort to an ORDER BY clause. timeExpr is the
// column used for chronological order, titleExpr for alphabetical.
func orderBy(sort, timeExpr, titleExpr string) string {
	switch sort {
	case model.SortOldest:
		return fmt.Sprintf(" ORDER BY %s ASC, %s ASC", timeExpr, titleExpr)
	case model.SortTitle:
		return fmt.Sprintf(" ORDER BY lower(%s) ASC, %s DESC", titleExpr, timeExpr)
	default:
		return fmt.Sprintf(" ORDER BY %s DESC, %s ASC", timeExpr, titleExpr)
	}
}

// likePattern turns a search term into an ILIKE substring pattern,
// escaping the wildcard characters.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
