package realtime

import (
	"testing"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return NewHub(log)
}

func TestHubBroadcastDelivers(t *testing.T) {
	hub := testHub(t)
	client := hub.NewClient(uuid.New())
	channel := PostChannel(uuid.NewString())
	hub.AddChannel(client, channel)

	hub.Broadcast(Message{Channel: channel, Event: EventPostLikeCount, Data: map[string]any{"like_count": 3}})

	select {
	case msg := <-client.Outbound:
		if msg.Event != EventPostLikeCount {
			t.Fatalf("event: want=%q got=%q", EventPostLikeCount, msg.Event)
		}
	default:
		t.Fatalf("expected a buffered message")
	}
}

func TestHubBroadcastSkipsOtherChannels(t *testing.T) {
	hub := testHub(t)
	client := hub.NewClient(uuid.New())
	hub.AddChannel(client, PostChannel("a"))

	hub.Broadcast(Message{Channel: PostChannel("b"), Event: EventPostLikeCount})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected delivery: %+v", msg)
	default:
	}
}

func TestHubRemoveChannelStopsDelivery(t *testing.T) {
	hub := testHub(t)
	client := hub.NewClient(uuid.New())
	channel := EstablishmentChannel("x")
	hub.AddChannel(client, channel)
	hub.RemoveChannel(client, channel)

	hub.Broadcast(Message{Channel: channel, Event: EventEstablishmentUpdated})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected delivery after unsubscribe: %+v", msg)
	default:
	}
}

func TestHubIgnoresBlankChannel(t *testing.T) {
	hub := testHub(t)
	client := hub.NewClient(uuid.New())
	hub.AddChannel(client, "   ")

	if len(client.Channels) != 0 {
		t.Fatalf("blank channel must not subscribe")
	}
	hub.Broadcast(Message{Channel: "", Event: EventPostLikeCount})
}

func TestChannelNames(t *testing.T) {
	if got := PostChannel("123"); got != "post:123" {
		t.Fatalf("post channel: got=%q", got)
	}
	if got := EstablishmentChannel("abc"); got != "establishment:abc" {
		t.Fatalf("establishment channel: got=%q", got)
	}
}
