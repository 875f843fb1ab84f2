package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds reusable buffers for encoding and decoding wire data.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 64))
	},
}
