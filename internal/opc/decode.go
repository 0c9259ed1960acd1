package opc

import (
	"context"
	"runtime"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Document is the decoded form of one XML part.
type Document struct {
	Part string

	// DOM is nil when Err is set.
	DOM xmldom.Document

	// Err records why the part could not be read or parsed.
	Err error
}

// Root returns the document element, or nil when decoding failed.
func (d *Document) Root() xmldom.Element {
	if d == nil || d.DOM == nil {
		return nil
	}
	return d.DOM.DocumentElement()
}

// Decode parses every XML part concurrently, with at most workers parts in
// flight (workers <= 0 means one per CPU). Per-part failures are recorded on
// the Document; only context cancellation is returned. Decode is a no-op
// after the first successful call.
func (p *Package) Decode(ctx context.Context, workers int) error {
	p.mu.Lock()
	done := p.docs != nil
	p.mu.Unlock()
	if done {
		return nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	docs := make(map[string]*Document)
	results := make(chan *Document)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for d := range results {
			docs[d.Part] = d
		}
	}()

	for _, part := range p.Parts() {
		if !part.IsXML() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case results <- decodePart(part):
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	err := g.Wait()
	close(results)
	<-collected
	if err != nil {
		return errors.Wrap(err, "decoding parts")
	}

	p.mu.Lock()
	p.docs = docs
	p.mu.Unlock()
	return nil
}

func decodePart(part *Part) *Document {
	d := &Document{Part: part.Name}

	data, err := part.Bytes()
	if err != nil {
		d.Err = err
		return d
	}
	dom, err := decode(data)
	if err != nil {
		d.Err = err
		return d
	}
	d.DOM = dom
	return d
}

// Document returns the decoded form of the named part. It reports false
// when Decode has not run or the part is not XML.
func (p *Package) Document(name string) (*Document, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.docs[name]
	return d, ok
}

// Documents returns the decoded XML parts sorted by URI.
func (p *Package) Documents() []*Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Document, 0, len(p.docs))
	for _, name := range p.names {
		if d, ok := p.docs[name]; ok {
			out = append(out, d)
		}
	}
	return out
}
