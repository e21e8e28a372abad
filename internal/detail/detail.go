// Package detail loads a single catalog record for a detail page.
package detail

import (
	"context"
	"strconv"
	"strings"

	"github.com/myrjola/holocron/internal/swapi"
)

// Status is exactly one of the states a detail page renders.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusNotFound
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusNotFound:
		return "not found"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// InvalidIdentifierMessage is shown when the route identifier can't be used to fetch anything.
const InvalidIdentifierMessage = "Invalid identifier"

// Result is the outcome of Load. Item is only meaningful when Status is StatusReady and Err only when it is
// StatusError.
type Result[T any] struct {
	Status Status
	ID     int
	Item   T
	Err    string
}

// Getter fetches a record by its identifier. [swapi.Resource.Get] satisfies it.
type Getter[T any] func(ctx context.Context, id int) (T, error)

// ParseID accepts exactly one value holding a positive integer.
func ParseID(values ...string) (int, bool) {
	if len(values) != 1 {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// Loading is the placeholder result shown before Load returns.
func Loading[T any]() Result[T] {
	var zero T
	return Result[T]{Status: StatusLoading, ID: 0, Item: zero, Err: ""}
}

// Load parses the route identifier and fetches the record. Invalid identifiers fail without calling get.
func Load[T any](ctx context.Context, get Getter[T], rawID ...string) Result[T] {
	var zero T
	id, ok := ParseID(rawID...)
	if !ok {
		return Result[T]{Status: StatusError, ID: 0, Item: zero, Err: InvalidIdentifierMessage}
	}
	item, err := get(ctx, id)
	switch {
	case err == nil:
		return Result[T]{Status: StatusReady, ID: id, Item: item, Err: ""}
	case swapi.IsNotFound(err):
		return Result[T]{Status: StatusNotFound, ID: id, Item: zero, Err: swapi.Message(err)}
	default:
		return Result[T]{Status: StatusError, ID: id, Item: zero, Err: swapi.Message(err)}
	}
}
