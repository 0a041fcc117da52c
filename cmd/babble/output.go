package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorgonia/babble"
	"github.com/gorilla/websocket"
)

// Encoder is a structure that encodes a conversation according to the babble.OutputEncoder interface.
// Every step is sent as JSON to the websocket client, if there is one.
type Encoder struct {
	step chan step
}

type step struct {
	Step    int    `json:"step"`
	Output  string `json:"output"`
	Nothing bool   `json:"nothing"`
}

var upgrader = websocket.Upgrader{} // use default options

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()
	for {
		var s step
		select {
		case s = <-enc.step:
		case <-r.Context().Done():
			return
		}
		b, _ := json.Marshal(s)
		if err = c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Println("write:", err)
			return
		}
	}
}

// NewEncoder creates a websocket encoder
func NewEncoder() *Encoder {
	return &Encoder{
		step: make(chan step, 64),
	}
}

// Encode a step. Steps are dropped when nobody is listening.
func (enc *Encoder) Encode(t babble.Transcripter) error {
	out := t.LastOutput()
	s := step{Step: t.StepNumber(), Nothing: out.IsNothing()}
	if !out.IsNothing() {
		s.Output = string(out.Char)
	}
	select {
	case enc.step <- s:
	default:
	}
	return nil
}

// Flush ...
func (enc *Encoder) Flush() error { return nil }
