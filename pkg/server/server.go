package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/autocomplete/internal/logger"
	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/bastiangx/autocomplete/pkg/widget"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// Server hosts one widget for a remote renderer.
type Server struct {
	ctrl       *widget.Controller
	doc        *widget.Document
	candidates int
	logger     *log.Logger

	reader io.Reader
	wmu    sync.Mutex
	enc    *msgpack.Encoder

	regionMu sync.RWMutex
	region   *widget.Rect

	pendingMu sync.Mutex
	pending   map[uint64]string
	lastSeq   uint64
}

// NewServer creates a server reading requests from r and writing to w.
// candidates is only reported in the ready message.
func NewServer(f filter.Filterer, candidates int, r io.Reader, w io.Writer) *Server {
	s := &Server{
		ctrl:       widget.NewController(f),
		doc:        widget.NewDocument(),
		candidates: candidates,
		logger:     logger.New("server"),
		reader:     r,
		enc:        msgpack.NewEncoder(w),
		pending:    make(map[uint64]string),
	}
	s.ctrl.OnChange(s.onChange)
	return s
}

// Start serves until the input ends or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting headless server", "session", s.ctrl.ID())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.send(ReadyResponse{Status: "ready", Session: s.ctrl.ID(), Candidates: s.candidates}); err != nil {
		return fmt.Errorf("failed to signal ready: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ctrl.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		defer s.ctrl.Unmount()
		return s.readLoop(gctx)
	})
	if c, ok := s.reader.(io.Closer); ok {
		// unblocks a read stuck waiting for the next request
		g.Go(func() error {
			<-gctx.Done()
			c.Close()
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) readLoop(ctx context.Context) error {
	dec := msgpack.NewDecoder(s.reader)
	for {
		raw, err := dec.DecodeRaw()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Client disconnected (EOF)")
				s.awaitSettled(ctx)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		if err := s.handleRequest(ctx, req); err != nil {
			return err
		}
	}
}

// awaitSettled waits for the filter of the last keystroke, so its result is
// still pushed after the client has stopped writing.
func (s *Server) awaitSettled(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for s.ctrl.State().Pending() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// handleRequest applies one request and answers it. Only failures that end
// the session are returned.
func (s *Server) handleRequest(ctx context.Context, req Request) error {
	start := time.Now()
	var (
		st  widget.State
		err error
	)

	switch req.Event {
	case EventMount:
		if req.W <= 0 || req.H <= 0 {
			s.sendError(req.ID, "mount needs a positive width and height", 400)
			return nil
		}
		s.setRegion(&widget.Rect{X: req.X, Y: req.Y, W: req.W, H: req.H})
		s.ctrl.Mount(s.doc, s.currentRegion)
		st = s.ctrl.State()
	case EventUnmount:
		s.ctrl.Unmount()
		s.setRegion(nil)
		st = s.ctrl.State()
	case EventKey:
		s.expectKeystroke(req.ID, req.Text)
		st, err = s.ctrl.Apply(ctx, widget.Keystroke{Text: req.Text})
	case EventSelect:
		st, err = s.ctrl.Apply(ctx, widget.ItemSelected{Item: req.Text})
	case EventPointer:
		s.doc.Dispatch(widget.PointerEvent{Point: widget.Point{X: req.X, Y: req.Y}})
		st = s.ctrl.State()
	case EventState:
		st = s.ctrl.State()
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown event: %s", req.Event), 400)
		return nil
	}
	if err != nil {
		return err
	}

	resp := stateResponse(req.ID, s.ctrl.ID(), st)
	resp.TimeTaken = time.Since(start).Microseconds()
	s.logger.Debug("Handled request", "id", req.ID, "ev", req.Event, "took", time.Since(start))
	return s.send(resp)
}

// expectKeystroke remembers which request will issue the next filter so the
// pushed result can carry its id. The read loop is the only source of
// keystrokes and every accepted one takes the next token, so the token is
// known before the keystroke is applied.
func (s *Server) expectKeystroke(id, text string) {
	if widget.Validate(text) != nil {
		return
	}
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.lastSeq++
	s.pending[s.lastSeq] = id
}

func (s *Server) onChange(st widget.State, ev widget.Event) {
	res, ok := ev.(widget.FilterResolved)
	if !ok {
		return
	}

	s.pendingMu.Lock()
	id := s.pending[res.Seq]
	for seq := range s.pending {
		if seq <= res.Seq {
			delete(s.pending, seq)
		}
	}
	s.pendingMu.Unlock()

	if err := s.send(stateResponse(id, s.ctrl.ID(), st)); err != nil {
		s.logger.Errorf("Pushing filter result: %v", err)
	}
}

func (s *Server) setRegion(r *widget.Rect) {
	s.regionMu.Lock()
	s.region = r
	s.regionMu.Unlock()
}

func (s *Server) currentRegion() widget.Region {
	s.regionMu.RLock()
	defer s.regionMu.RUnlock()
	if s.region == nil {
		return nil
	}
	return *s.region
}

func stateResponse(id, session string, st widget.State) StateResponse {
	rows := st.Rows()
	items := make([]Row, len(rows))
	for i, r := range rows {
		items[i] = Row{Before: r.Before, Match: r.Text, After: r.After}
	}
	return StateResponse{
		ID:       id,
		Session:  session,
		Input:    st.Input,
		Draft:    st.Draft,
		Open:     st.Open,
		Selected: st.Selected,
		Error:    st.Err,
		Items:    items,
		Pending:  st.Pending(),
		Seq:      st.Seq(),
	}
}

// send encodes one message. Responses and pushed results come from
// different goroutines, so writes are serialized.
func (s *Server) send(v any) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	if err := s.send(ErrorResponse{ID: id, Error: message, Code: code}); err != nil {
		s.logger.Errorf("Sending error response: %v", err)
	}
}
