// Command vroom-watch connects to a running "vroom -watch-addr" server's
// progress WebSocket and prints each solve event as it arrives. Adapted
// from the teacher's scripts/ws_client.go, which drove a GraphQL
// subscription over the same gorilla/websocket dialer.
package main

import (
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
)

type event struct {
	RunID      string `json:"run_id"`
	Phase      string `json:"phase"`
	Iteration  int    `json:"iteration"`
	Cost       int64  `json:"cost"`
	Duration   int64  `json:"duration"`
	Unassigned int    `json:"unassigned"`
}

func main() {
	addr := flag.String("addr", "localhost:9090", "host:port of a vroom -watch-addr server")
	runID := flag.String("run", "", "run id to watch (default: every run)")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws/" + *runID}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial %s: %v", u.String(), err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt event
			if err := conn.ReadJSON(&evt); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("[%s] %-12s iter=%-4d cost=%-8d duration=%-8d unassigned=%d",
				evt.RunID, evt.Phase, evt.Iteration, evt.Cost, evt.Duration, evt.Unassigned)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
