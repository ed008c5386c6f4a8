package listing

import (
	"context"
	"sync"

	"shire-of-paws/internal/platform/httpclient"
)

type FetchFunc[T any, P Params] func(ctx context.Context, p P) (Page[T], error)

type call struct {
	key  string
	seq  uint64
	done chan struct{}
}

// Controller mantiene el resultado de un listado para una clave de parámetros.
//
//   - misma Key ya cargada => no hay fetch;
//   - misma Key en vuelo => se espera a ese fetch;
//   - Key distinta => cancela el fetch anterior; su resultado se descarta.
type Controller[T any, P Params] struct {
	fetch    FetchFunc[T, P]
	fallback string

	mu        sync.Mutex
	state     State[T]
	params    P
	hasParams bool
	loadedKey string
	loaded    bool
	seq       uint64
	cancel    context.CancelFunc
	inflight  *call
}

// NewController: fallback es el mensaje si el backend no manda uno.
func NewController[T any, P Params](fetch FetchFunc[T, P], fallback string) *Controller[T, P] {
	return &Controller[T, P]{
		fetch:    fetch,
		fallback: fallback,
		state:    State[T]{Items: []T{}},
	}
}

// Load asegura que el estado corresponde a p y lo devuelve ya resuelto.
// Si ctx se cancela mientras espera, devuelve el snapshot actual (Loading=true).
func (c *Controller[T, P]) Load(ctx context.Context, p P) State[T] {
	key := p.Key()

	c.mu.Lock()
	switch {
	case c.inflight != nil && c.inflight.key == key:
		// coalesce
	case c.inflight == nil && c.loaded && c.loadedKey == key:
		st := c.snapshotLocked()
		c.mu.Unlock()
		return st
	default:
		c.startLocked(ctx, key, p)
	}
	c.mu.Unlock()

	return c.wait(ctx)
}

// Refetch vuelve a pedir los últimos parámetros aunque la Key no cambió.
func (c *Controller[T, P]) Refetch(ctx context.Context) State[T] {
	c.mu.Lock()
	if !c.hasParams {
		st := c.snapshotLocked()
		c.mu.Unlock()
		return st
	}
	p := c.params
	c.startLocked(ctx, p.Key(), p)
	c.mu.Unlock()

	return c.wait(ctx)
}

// Snapshot devuelve el estado actual sin disparar nada.
func (c *Controller[T, P]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Params devuelve los últimos parámetros pedidos.
func (c *Controller[T, P]) Params() (P, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params, c.hasParams
}

// Close cancela cualquier fetch en vuelo.
func (c *Controller[T, P]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller[T, P]) startLocked(ctx context.Context, key string, p P) {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++

	// El fetch no muere con el request que lo disparó: otros pueden estar esperando.
	fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cl := &call{key: key, seq: c.seq, done: make(chan struct{})}

	c.cancel = cancel
	c.inflight = cl
	c.params = p
	c.hasParams = true
	c.state.Loading = true

	go c.run(fctx, cancel, cl, p)
}

func (c *Controller[T, P]) run(ctx context.Context, cancel context.CancelFunc, cl *call, p P) {
	page, err := c.fetch(ctx, p)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(cl.done)
	defer cancel()

	if cl.seq != c.seq {
		// superado por un Load posterior
		return
	}

	c.inflight = nil
	c.cancel = nil
	c.state.Loading = false

	if err != nil {
		c.state.Items = []T{}
		c.state.TotalPages = 0
		c.state.TotalElements = 0
		c.state.Error = httpclient.MessageOf(err, c.fallback)
		c.state.Err = err
		c.loaded = false
		return
	}

	items := page.Content
	if items == nil {
		items = []T{}
	}
	c.state.Items = items
	c.state.TotalPages = page.TotalPages
	c.state.TotalElements = page.TotalElements
	c.state.Error = ""
	c.state.Err = nil
	c.loaded = true
	c.loadedKey = cl.key
}

// wait espera hasta que no quede nada en vuelo (incluye fetches que superan al propio).
func (c *Controller[T, P]) wait(ctx context.Context) State[T] {
	for {
		c.mu.Lock()
		cl := c.inflight
		if cl == nil {
			st := c.snapshotLocked()
			c.mu.Unlock()
			return st
		}
		c.mu.Unlock()

		select {
		case <-cl.done:
		case <-ctx.Done():
			return c.Snapshot()
		}
	}
}

func (c *Controller[T, P]) snapshotLocked() State[T] {
	st := c.state
	st.Items = append([]T(nil), c.state.Items...)
	if st.Items == nil {
		st.Items = []T{}
	}
	return st
}
