package detail

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlacer struct {
	url   string
	err   error
	calls int
}

func (s *stubPlacer) PlaceOrder(_ context.Context, _ uuid.UUID, _ int) (string, error) {
	s.calls++
	return s.url, s.err
}

type stubOpener struct {
	opened []string
}

func (s *stubOpener) Open(url string) { s.opened = append(s.opened, url) }

type stubNotifier struct {
	messages []string
}

func (s *stubNotifier) Notify(msg string) { s.messages = append(s.messages, msg) }

func TestDispatchOpensRedirectOnSuccess(t *testing.T) {
	placer := &stubPlacer{url: "https://wa.me/6281389090654?text=order"}
	opener := &stubOpener{}
	notify := &stubNotifier{}
	d := NewDispatcher(placer, opener, notify)

	err := d.Dispatch(context.Background(), uuid.New(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://wa.me/6281389090654?text=order"}, opener.opened)
	assert.Empty(t, notify.messages)
}

func TestDispatchFailureNotifiesOnceAndOpensNothing(t *testing.T) {
	placer := &stubPlacer{err: errors.New("boom")}
	opener := &stubOpener{}
	notify := &stubNotifier{}
	d := NewDispatcher(placer, opener, notify)

	err := d.Dispatch(context.Background(), uuid.New(), 1)
	require.Error(t, err)
	assert.Empty(t, opener.opened)
	assert.Len(t, notify.messages, 1)
}

func TestDispatchFailureLeavesPageStateUntouched(t *testing.T) {
	g := NewGallery("0", []string{"1", "2"}, ident)
	g.Paginate(1)
	q := NewQuantity(150000, 5)
	q.Set(3)

	d := NewDispatcher(&stubPlacer{err: errors.New("down")}, &stubOpener{}, &stubNotifier{})
	_ = d.Dispatch(context.Background(), uuid.New(), q.Value())

	assert.Equal(t, 1, g.Index())
	assert.Equal(t, 3, q.Value())
	assert.Equal(t, int64(450000), q.Total())
}

func TestDispatchRetryAfterFailure(t *testing.T) {
	placer := &stubPlacer{err: errors.New("down")}
	opener := &stubOpener{}
	notify := &stubNotifier{}
	d := NewDispatcher(placer, opener, notify)

	_ = d.Dispatch(context.Background(), uuid.New(), 1)

	placer.err = nil
	placer.url = "https://wa.me/x"
	err := d.Dispatch(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, placer.calls)
	assert.Equal(t, []string{"https://wa.me/x"}, opener.opened)
}

func TestDispatchIgnoredWhileInFlight(t *testing.T) {
	placer := &stubPlacer{url: "https://wa.me/x"}
	inner := &stubOpener{}
	re := &reentrantOpener{inner: inner}
	d := NewDispatcher(placer, re, &stubNotifier{})
	re.d = d

	err := d.Dispatch(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, placer.calls, "a dispatch issued mid-flight is dropped")
	assert.Equal(t, []string{"https://wa.me/x"}, inner.opened)
}

type reentrantOpener struct {
	d     *Dispatcher
	inner *stubOpener
}

func (r *reentrantOpener) Open(url string) {
	if r.d != nil {
		_ = r.d.Dispatch(context.Background(), uuid.New(), 1)
	}
	r.inner.Open(url)
}
