//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/solarcar/core/history"
	"github.com/kilianp07/solarcar/core/model"
	"github.com/kilianp07/solarcar/test/util"
)

func TestRequestRoundTripWithMosquitto(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("mosquitto unavailable: %v", err)
	}
	defer cleanup()

	calc := func(_ context.Context, sc model.ScenarioType, form map[string]string) (history.Record, error) {
		rec := history.NewRecord(sc, "eclipse", form)
		rec.Outcome = "ok"
		return rec, nil
	}
	pub, err := NewPahoPublisher(Config{Broker: broker, ClientID: "solarcar-it", QoS: 1, Requests: true}, calc)
	require.NoError(t, err)
	defer pub.Close()

	replies := make(chan Reply, 2)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("dashboard"))
	require.NoError(t, waitToken(sub.Connect()))
	defer sub.Disconnect(100)
	require.NoError(t, waitToken(sub.Subscribe("solarcar/+/reply", 1, func(_ paho.Client, m paho.Message) {
		var r Reply
		if json.Unmarshal(m.Payload(), &r) == nil {
			replies <- r
		}
	})))

	// give the publisher subscription time to settle
	time.Sleep(200 * time.Millisecond)
	// Two requests back to back: the second waits behind the first while its
	// reply is being acknowledged.
	first := sub.Publish("solarcar/distance/request", 1, false,
		`{"request_id":"it-1","fields":{"speed_kmh":"60","time_hours":"2"}}`)
	second := sub.Publish("solarcar/distance/request", 1, false,
		`{"request_id":"it-2","fields":{"speed_kmh":"80","time_hours":"1"}}`)
	require.NoError(t, waitToken(first))
	require.NoError(t, waitToken(second))

	got := map[string]Reply{}
	for len(got) < 2 {
		select {
		case r := <-replies:
			got[r.RequestID] = r
		case <-ctx.Done():
			t.Fatalf("received %d of 2 replies", len(got))
		}
	}
	r := got["it-1"]
	assert.Empty(t, r.Error)
	assert.Equal(t, model.ScenarioDistanceFromSpeedTime, r.Record.Scenario)
	assert.Equal(t, "60", r.Record.Form["speed_kmh"])
	assert.Equal(t, "80", got["it-2"].Record.Form["speed_kmh"])
}

func waitToken(tok paho.Token) error {
	tok.Wait()
	return tok.Error()
}
