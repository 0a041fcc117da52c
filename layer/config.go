package layer

// Config configures the fixed recurrent topology
type Config struct {
	ExternalWidth int // width of an encoded event, in and out
	MemoryWidth   int // width of the recurrent memory vector
	NoiseWidth    int // width of the random noise mixed into the dense stage
	HiddenWidth   int // dense layer width. Must be ExternalWidth + MemoryWidth

	Trace bool // record an execution log for every affine evaluation
}

// DefaultConf returns a configuration with a memory of 16 and a noise source of 16
// for events encoded with the given width.
func DefaultConf(externalWidth int) Config {
	const memory = 16
	return Config{
		ExternalWidth: externalWidth,
		MemoryWidth:   memory,
		NoiseWidth:    memory,
		HiddenWidth:   externalWidth + memory,
	}
}

func (conf Config) IsValid() bool {
	return conf.ExternalWidth >= 1 &&
		conf.MemoryWidth >= 1 &&
		conf.NoiseWidth >= 0 &&
		conf.HiddenWidth == conf.ExternalWidth+conf.MemoryWidth
}
