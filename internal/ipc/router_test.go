package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/metrics"
	"github.com/oukeidos/desksort/internal/models"
)

func newTestRouter() (*Router, *fakeBackend, *fakeWindow) {
	r := NewRouter(metrics.New(nil))
	b := newFakeBackend()
	w := &fakeWindow{}
	RegisterBackend(r, b)
	RegisterWindow(r, w)
	return r, b, w
}

func TestRouter_InvokeRoundTripsJSON(t *testing.T) {
	r, b, _ := newTestRouter()
	ctx := context.Background()

	var cats models.CategoryMap
	if err := r.Invoke(ctx, ChannelGetCategories, nil, &cats); err != nil {
		t.Fatalf("get-categories: %v", err)
	}
	if !reflect.DeepEqual(cats, b.cats) {
		t.Fatalf("categories = %+v", cats)
	}

	var opened bool
	if err := r.Invoke(ctx, ChannelOpenApp, "/d/Word.lnk", &opened); err != nil || !opened {
		t.Fatalf("open-app = (%v, %v)", opened, err)
	}
	if len(b.opened) != 1 || b.opened[0] != "/d/Word.lnk" {
		t.Fatalf("opened = %v", b.opened)
	}

	var ok bool
	if err := r.Invoke(ctx, ChannelResetConfig, nil, &ok); err != nil || !ok || b.resets != 1 {
		t.Fatalf("reset-config = (%v, %v), resets=%d", ok, err, b.resets)
	}
	if err := r.Invoke(ctx, ChannelSaveConfig, nil, &ok); err != nil || !ok {
		t.Fatalf("save-config = (%v, %v)", ok, err)
	}

	b.busy = true
	var status bool
	if err := r.Invoke(ctx, ChannelGetClassificationStatus, nil, &status); err != nil || !status {
		t.Fatalf("get-classification-status = (%v, %v)", status, err)
	}
}

func TestRouter_Errors(t *testing.T) {
	r, _, _ := newTestRouter()
	ctx := context.Background()

	if err := r.Invoke(ctx, "format-disk", nil, nil); !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("unknown channel error = %v", err)
	}
	if err := r.Send("format-disk", nil); !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("unknown send channel error = %v", err)
	}

	cases := []json.RawMessage{nil, json.RawMessage(`123`), json.RawMessage(`"  "`), json.RawMessage(`null`)}
	for _, payload := range cases {
		_, err := r.Dispatch(ctx, ChannelOpenApp, payload)
		if !apperrors.Is(err, apperrors.KindValidation) {
			t.Fatalf("open-app payload %q error = %v, want validation", payload, err)
		}
	}
}

func TestRouter_SendAndChannels(t *testing.T) {
	r, _, w := newTestRouter()
	for _, ch := range []string{ChannelMinimizeWindow, ChannelMaximizeWindow, ChannelCloseWindow} {
		if !r.IsSend(ch) {
			t.Fatalf("%s not registered as send channel", ch)
		}
		if err := r.Send(ch, nil); err != nil {
			t.Fatalf("Send(%s): %v", ch, err)
		}
	}
	if !reflect.DeepEqual(w.events, []string{"minimize", "maximize", "close"}) {
		t.Fatalf("window events = %v", w.events)
	}
	if r.IsSend(ChannelGetApps) {
		t.Fatal("get-apps reported as send channel")
	}
	if got := len(r.Channels()); got != 11 {
		t.Fatalf("Channels() = %d entries, want 11", got)
	}
}

func TestRouter_ClassifyBusyPassesThrough(t *testing.T) {
	r, b, _ := newTestRouter()
	b.classifyErr = errBusy
	err := r.Invoke(context.Background(), ChannelClassifyApps, nil, nil)
	if !apperrors.Is(err, apperrors.KindBusy) {
		t.Fatalf("classify-apps error = %v, want busy", err)
	}
}
