package provider

import "context"

// Paginator is a lazy, restartable cursor over the provider's events
// listing. It never buffers more than one page: each Next call fetches a
// page only when the previously-yielded one is exhausted.
type Paginator struct {
	client    *Client
	changedAt string

	page    *PagePayload
	index   int
	started bool
	done    bool
}

// NewPaginator builds a paginator that starts from the first page filtered
// by changedAt (an empty string means "from the beginning").
func NewPaginator(client *Client, changedAt string) *Paginator {
	return &Paginator{client: client, changedAt: changedAt}
}

// Next returns the next event in changed_at order, or ok=false once the
// provider reports no further pages. A non-nil error aborts iteration; the
// caller should not call Next again after an error.
func (p *Paginator) Next(ctx context.Context) (event EventPayload, ok bool, err error) {
	if p.done {
		return EventPayload{}, false, nil
	}

	for p.page == nil || p.index >= len(p.page.Results) {
		nextURL := ""
		if p.started {
			if p.page == nil || p.page.Next == "" {
				p.done = true
				return EventPayload{}, false, nil
			}
			nextURL = p.page.Next
		}

		page, fetchErr := p.client.GetEventsPage(ctx, p.changedAt, nextURL)
		if fetchErr != nil {
			return EventPayload{}, false, fetchErr
		}
		p.started = true
		p.page = page
		p.index = 0

		if len(page.Results) == 0 && page.Next == "" {
			p.done = true
			return EventPayload{}, false, nil
		}
	}

	event = p.page.Results[p.index]
	p.index++
	return event, true, nil
}
