package babble

import (
	"github.com/gorgonia/babble/layer"
)

type Config struct {
	Name      string
	LayerConf layer.Config
	Seed      int64 // seed of the random source. 0 seeds from the clock
}

// DefaultConfig is a brain with a memory of 16 and a hidden width of 273.
func DefaultConfig() Config {
	return Config{
		Name:      "babble",
		LayerConf: layer.DefaultConf(InputWidth),
	}
}

func (c Config) IsValid() bool {
	return c.LayerConf.IsValid() && c.LayerConf.ExternalWidth == InputWidth
}

// Stepper is anything that turns one input event into one output event.
type Stepper interface {
	Step(e EventIn) (EventOut, error)
}

// Transcripter is anything that can report on a conversation.
type Transcripter interface {
	Name() string         // name of the brain
	StepNumber() int      // count of steps so far
	Transcript() string   // everything that was said
	LastOutput() EventOut // the output of the last step
	LastInput() EventIn   // the input of the last step
}

// OutputEncoder encodes the conversation as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a websocket.
type OutputEncoder interface {
	Encode(t Transcripter) error
	Flush() error
}

// OutputEncoders fans out to many OutputEncoders.
type OutputEncoders []OutputEncoder

func (encs OutputEncoders) Encode(t Transcripter) error {
	var allErrs manyErr
	for _, enc := range encs {
		if err := enc.Encode(t); err != nil {
			allErrs = append(allErrs, err)
		}
	}
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}

func (encs OutputEncoders) Flush() error {
	var allErrs manyErr
	for _, enc := range encs {
		if err := enc.Flush(); err != nil {
			allErrs = append(allErrs, err)
		}
	}
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}
