package speech

import "encoding/binary"

// Mock audio container parameters: 24kHz mono 16-bit PCM.
const (
	mockSampleRate     = 24000
	mockChannels       = 1
	mockBitsPerSample  = 16
	mockBytesPerSample = 2

	wavHeaderSize   = 44
	wavFmtChunkSize = 16
	wavPCMFormat    = 1
	riffChunkExtra  = 36
)

// silentWAV builds a minimal valid WAV file containing silence whose length
// matches the estimated spoken duration of the script. Downstream consumers
// can treat it as a well-formed audio artifact without a live backend.
func silentWAV(script string) []byte {
	numSamples := int(mockSampleRate * EstimateDuration(script))
	dataSize := numSamples * mockBytesPerSample

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(riffChunkExtra+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], wavFmtChunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], wavPCMFormat)
	binary.LittleEndian.PutUint16(buf[22:24], mockChannels)
	binary.LittleEndian.PutUint32(buf[24:28], mockSampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], mockSampleRate*mockChannels*mockBytesPerSample)
	binary.LittleEndian.PutUint16(buf[32:34], mockChannels*mockBytesPerSample)
	binary.LittleEndian.PutUint16(buf[34:36], mockBitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	// The remaining dataSize bytes are already zeroed: silence.
	return buf
}
