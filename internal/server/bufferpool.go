package server

import (
	"sync"

	"github.com/Brownie44l1/http-fileserver/internal/request"
)

var requestBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, request.MaxRequestSize)
		return &buf
	},
}

// GetRequestBuffer returns a buffer sized for one request read.
func GetRequestBuffer() []byte {
	buf := requestBufferPool.Get().(*[]byte)
	return (*buf)[:request.MaxRequestSize]
}

// PutRequestBuffer returns a buffer to the pool. Buffers of any other
// capacity are left to the GC.
func PutRequestBuffer(buf []byte) {
	if cap(buf) != request.MaxRequestSize {
		return
	}
	buf = buf[:request.MaxRequestSize]
	requestBufferPool.Put(&buf)
}
