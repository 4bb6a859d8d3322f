package pubsub

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestKeyFrameCountProperty checks that n ticks with KeyFrameCount k have floor((n-1)/k)+1 key frames.
func TestKeyFrameCountProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("key frames are the first tick and every k-th after", prop.ForAll(
		func(k uint32, n int) bool {
			w := &dataSetWriter{config: DataSetWriterConfig{KeyFrameCount: k}, seqNum: 1}
			keyFrames := 0
			for i := 0; i < n; i++ {
				keyFrame, _ := w.next()
				if keyFrame {
					keyFrames++
				}
			}
			kk := int(k)
			if kk < 1 {
				kk = 1
			}
			return keyFrames == (n-1)/kk+1
		},
		gen.UInt32Range(0, 20),
		gen.IntRange(1, 200),
	))

	properties.Property("sequence numbers increase by one", prop.ForAll(
		func(n int) bool {
			w := &dataSetWriter{config: DataSetWriterConfig{KeyFrameCount: 10}, seqNum: 1}
			for i := 1; i <= n; i++ {
				if _, seq := w.next(); seq != uint16(i) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}

func TestSequenceNumberWraps(t *testing.T) {
	w := &dataSetWriter{seqNum: 65535}
	if _, seq := w.next(); seq != 65535 {
		t.Fatalf("Expected 65535, got %d", seq)
	}
	if _, seq := w.next(); seq != 1 {
		t.Fatalf("Expected wrap to 1, got %d", seq)
	}
}
