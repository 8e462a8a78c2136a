// Package capture runs the real-time side of the capture chain: it accumulates
// rendering quanta while a recording session is active and hands the batch to the
// control side as one PCM16 utterance when the session stops.
package capture

const (
	SampleRate      = 48000
	QuantumFrames   = 128
	CommandStart    = "startRecording"
	CommandStop     = "stopRecording"
	diagnosticEvery = 100
)

// Block is one rendering quantum of mono samples in [-1, 1].
type Block []float32

// PortMessage is the control-to-render message.
type PortMessage struct {
	Command string `json:"command"`
}

// Utterance is the render-to-control message carrying one recording session.
type Utterance struct {
	AudioData  []int16 `json:"audioData"`
	SampleRate int     `json:"sampleRate"`
}

// Processor is owned by a single rendering goroutine. It holds no locks.
type Processor struct {
	recording      bool
	queue          []Block
	flushThreshold int
	processCount   int
	emit           func(Utterance)
}

// NewProcessor returns a processor that delivers utterances to emit.
// flushThreshold > 0 flushes early every flushThreshold recorded blocks; 0 flushes only on stop.
func NewProcessor(flushThreshold int, emit func(Utterance)) *Processor {
	if flushThreshold < 0 {
		flushThreshold = 0
	}
	return &Processor{
		flushThreshold: flushThreshold,
		emit:           emit,
	}
}

// Process copies input to output and records a copy of input while a session is active.
// It always returns true so the engine keeps the node alive.
func (p *Processor) Process(input, output []float32) bool {
	copy(output, input)
	if !p.recording || len(input) == 0 {
		return true
	}

	block := make(Block, len(input))
	copy(block, input)
	p.queue = append(p.queue, block)
	p.processCount++

	if p.flushThreshold > 0 && len(p.queue) >= p.flushThreshold {
		p.flush()
	}
	return true
}

func (p *Processor) HandleMessage(msg PortMessage) {
	switch msg.Command {
	case CommandStart:
		p.recording = true
		p.queue = nil
	case CommandStop:
		p.recording = false
		p.flush()
	}
}

func (p *Processor) Recording() bool {
	return p.recording
}

// ProcessCount reports recorded quanta since construction.
func (p *Processor) ProcessCount() int {
	return p.processCount
}

// QueuedBlocks reports blocks waiting for the next flush.
func (p *Processor) QueuedBlocks() int {
	return len(p.queue)
}

func (p *Processor) flush() {
	if len(p.queue) == 0 {
		return
	}
	blocks := p.queue
	p.queue = nil
	if p.emit != nil {
		p.emit(Encode(blocks))
	}
}
