package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
	"github.com/dmitrijs2005/studyshare/internal/client/screen"
	"github.com/dmitrijs2005/studyshare/internal/client/services"
	"github.com/dmitrijs2005/studyshare/internal/client/validation"
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// localErrors are shown verbatim; they carry no server message.
var localErrors = []error{
	services.ErrNoPendingSignup,
	services.ErrNoPendingReset,
	services.ErrNotLoggedIn,
}

// alert reports a failed action. Validation errors are listed per field.
func (a *App) alert(err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		for _, f := range slices.Sorted(maps.Keys(fields)) {
			a.printf("  %s: %s\n", f, fields[f])
		}
		return
	}
	for _, le := range localErrors {
		if errors.Is(err, le) {
			a.println("Alert:", le.Error())
			return
		}
	}
	a.println("Alert:", client.MessageOf(err, screen.DefaultError))
}

// show mounts a screen on q until its first result settles, renders it and
// unmounts.
func show[T any](ctx context.Context, a *App, q *query.Query[T], v screen.View[T]) (screen.Screen, error) {
	obs := q.Observe(ctx)
	defer obs.Close()

	st, err := obs.Await(ctx)
	if err != nil {
		return screen.Loading, err
	}
	return v.Write(a.out, st)
}

// pager is the list screen that stays mounted so "more" can extend it.
type pager struct {
	hasNext func() bool
	next    func(ctx context.Context) error
	close   func()
}

func (a *App) mount(p *pager) {
	a.mu.Lock()
	prev := a.list
	a.list = p
	a.mu.Unlock()
	if prev != nil {
		prev.close()
	}
}

func (a *App) unmount() {
	a.mount(nil)
}

func (a *App) mounted() *pager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list
}

// showPages renders the first page of q and keeps it mounted. Later pages
// print only the rows they add.
func showPages[T any](ctx context.Context, a *App, q *query.InfiniteQuery[T], empty string, line func(T) string) error {
	obs := q.Observe(ctx)
	st, err := obs.Await(ctx)
	if err != nil {
		obs.Close()
		return err
	}

	printed := 0
	rows := func(w io.Writer, p query.Pages[T]) error {
		items := p.Items()
		for i := printed; i < len(items); i++ {
			if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, line(items[i])); err != nil {
				return err
			}
		}
		printed = len(items)
		return nil
	}
	view := screen.View[query.Pages[T]]{
		Empty:  empty,
		Count:  func(p query.Pages[T]) int { return len(p.Items()) },
		Render: rows,
	}

	s, err := view.Write(a.out, st)
	if err != nil {
		obs.Close()
		return err
	}
	if s != screen.Populated {
		obs.Close()
		a.unmount()
		return nil
	}

	a.mount(&pager{
		hasNext: obs.HasNextPage,
		next: func(ctx context.Context) error {
			if err := obs.FetchNextPage(ctx); err != nil {
				return err
			}
			return rows(a.out, obs.State().Data)
		},
		close: obs.Close,
	})
	if obs.HasNextPage() {
		a.println("Type 'more' to load the next page.")
	}
	return nil
}

// more extends the mounted list screen.
func (a *App) more(ctx context.Context, _ []string) error {
	p := a.mounted()
	if p == nil {
		a.println("Nothing to load. Open a list first.")
		return nil
	}
	if !p.hasNext() {
		a.println("No more results.")
		return nil
	}
	if err := p.next(ctx); err != nil {
		return err
	}
	if p.hasNext() {
		a.println("Type 'more' to load the next page.")
	}
	return nil
}

// mutate runs m and prints done on success. Failures reach the REPL, which
// shows them as an alert.
func mutate[In, Out any](ctx context.Context, a *App, m *query.Mutation[In, Out], in In, done func(Out) string) error {
	out, err := m.MutateAsync(ctx, in)
	if err != nil {
		return err
	}
	if done != nil {
		a.println(done(out))
	}
	return nil
}
