package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// whisper models expect mono 16kHz samples
const WhisperSampleRate = 16000

// ReadWavSamples decodes a PCM WAV file into normalized float32 samples in
// the range [-1, 1]. The file must be mono 16kHz; callers are expected to
// have run the input through ConvertTo16kHzWav first.
func ReadWavSamples(filePath string) ([]float32, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav file: %w", err)
	}

	if decoder.SampleRate != WhisperSampleRate {
		return nil, fmt.Errorf("unexpected sample rate %d, want %d", decoder.SampleRate, WhisperSampleRate)
	}
	if decoder.NumChans != 1 {
		return nil, fmt.Errorf("unexpected channel count %d, want mono", decoder.NumChans)
	}

	// Normalize signed PCM to [-1, 1]
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / scale
	}
	return samples, nil
}
