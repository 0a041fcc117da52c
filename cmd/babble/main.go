package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorgonia/babble"
	"github.com/gorgonia/babble/ctp"
	"github.com/gorgonia/babble/encoding/gif"
	"github.com/gorgonia/babble/encoding/mjpeg"
)

var (
	seed     = flag.Int64("seed", 0, "seed of the random source. 0 seeds from the clock")
	memory   = flag.Int("memory", 16, "width of the recurrent memory")
	noise    = flag.Int("noise", 16, "width of the random noise")
	interval = flag.Duration("tick", time.Second, "interval between ticks. 0 disables the timer")
	addr     = flag.String("addr", ":8080", "address to serve the websocket and the mjpeg stream on. Empty disables the server")
	gifFile  = flag.String("gif", "", "write the conversation as an animated gif to this file on exit")
	stats    = flag.String("stats", "", "dump statistics as CSV to this file on exit")
	trace    = flag.Bool("trace", false, "record an execution log of the dense layer")
)

func main() {
	flag.Parse()

	conf := babble.DefaultConfig()
	conf.Seed = *seed
	conf.LayerConf.MemoryWidth = *memory
	conf.LayerConf.NoiseWidth = *noise
	conf.LayerConf.HiddenWidth = babble.InputWidth + *memory
	conf.LayerConf.Trace = *trace
	brain, err := babble.NewBrain(conf)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer brain.Close()

	var encs babble.OutputEncoders
	if *addr != "" {
		ws := NewEncoder()
		stream := mjpeg.NewEncoder(600, 800)
		encs = append(encs, ws, stream)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/ws", ws)
			mux.Handle("/mjpeg", stream)

			log.Printf("http://localhost%v/ws and http://localhost%v/mjpeg", *addr, *addr)
			if err := http.ListenAndServe(*addr, mux); err != nil {
				log.Println(err)
			}
		}()
	}
	if *gifFile != "" {
		f, err := os.OpenFile(*gifFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		encs = append(encs, gif.NewGifEncoder(f, 600, 800))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	agent := babble.NewAgent(brain, encs, 64)
	agent.Start(ctx)
	if *interval > 0 {
		go babble.Ticker(ctx, *interval, agent)
	}

	engine := ctp.New(agent, "babble", "0.1", nil)
	input, output := engine.Start()
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
		input <- "quit"
	}()
	for resp := range output {
		fmt.Print(resp)
	}

	if err := agent.Close(); err != nil {
		log.Printf("Closing: %v", err)
	}
	if *stats != "" {
		if err := brain.Dump(*stats); err != nil {
			log.Printf("Dumping statistics: %v", err)
		}
	}
	log.Printf("%v", brain.Stats())
}
