// Package screen picks which of four branches a screen shows for a query
// state and renders it.
package screen

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
)

type Screen int

const (
	Loading Screen = iota
	Error
	Empty
	Populated
)

func (s Screen) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Select is a pure function of the query state. count reports how many
// items the data holds; nil means the data is a single record.
func Select[T any](st query.State[T], count func(T) int) Screen {
	switch {
	case st.IsLoading && !st.HasData:
		return Loading
	case st.Err != nil && !st.HasData:
		return Error
	case !st.HasData:
		return Empty
	case count != nil && count(st.Data) == 0:
		return Empty
	default:
		return Populated
	}
}

// Len counts a list payload.
func Len[E any](items []E) int {
	return len(items)
}

const (
	DefaultLoading = "Loading..."
	DefaultEmpty   = "Nothing here yet."
	DefaultError   = "Something went wrong. Please try again."
)

// View renders the four branches of one screen.
type View[T any] struct {
	Loading string
	Empty   string
	Count   func(T) int
	Render  func(w io.Writer, data T) error
}

// Write renders st and returns the branch it chose.
func (v View[T]) Write(w io.Writer, st query.State[T]) (Screen, error) {
	s := Select(st, v.Count)
	var err error
	switch s {
	case Loading:
		_, err = fmt.Fprintln(w, orDefault(v.Loading, DefaultLoading))
	case Error:
		_, err = fmt.Fprintln(w, "Error:", client.MessageOf(st.Err, DefaultError))
	case Empty:
		_, err = fmt.Fprintln(w, orDefault(v.Empty, DefaultEmpty))
	case Populated:
		if v.Render != nil {
			err = v.Render(w, st.Data)
		}
	}
	return s, err
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
