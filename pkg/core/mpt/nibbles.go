package mpt

import (
	"fmt"
)

// Hex-prefix flag bits, they're stored in the high nibble of the first byte.
const (
	hpOddFlag  = 0x1
	hpLeafFlag = 0x2
)

// toNibbles mangles the path by splitting every byte into 2 4-bit halves,
// the most significant one goes first.
func toNibbles(path []byte) []byte {
	result := make([]byte, len(path)*2)
	for i := range path {
		result[i*2] = path[i] >> 4
		result[i*2+1] = path[i] & 0x0F
	}
	return result
}

// fromNibbles performs an operation opposite to toNibbles and runs no path
// validity checks, the trailing odd nibble (if any) is dropped.
func fromNibbles(path []byte) []byte {
	result := make([]byte, len(path)/2)
	for i := range result {
		result[i] = path[2*i]<<4 + path[2*i+1]
	}
	return result
}

// compactEncode packs nibble path into bytes prefixed with the flag nibble.
func compactEncode(path []byte, leaf bool) []byte {
	var flag byte
	if leaf {
		flag = hpLeafFlag
	}
	buf := make([]byte, len(path)/2+1)
	if len(path)%2 == 1 {
		buf[0] = (flag|hpOddFlag)<<4 | path[0]
		path = path[1:]
	} else {
		buf[0] = flag << 4
	}
	for i := 0; i < len(path); i += 2 {
		buf[i/2+1] = path[i]<<4 | path[i+1]
	}
	return buf
}

// compactDecode unpacks hex-prefixed path returning its nibbles and leaf flag.
func compactDecode(data []byte) ([]byte, bool, error) {
	if len(data) == 0 {
		return nil, false, fmt.Errorf("%w: empty hex-prefix path", ErrMalformedEncoding)
	}
	flag := data[0] >> 4
	if flag > hpOddFlag|hpLeafFlag {
		return nil, false, fmt.Errorf("%w: invalid hex-prefix flag %d", ErrMalformedEncoding, flag)
	}
	res := make([]byte, 0, len(data)*2)
	if flag&hpOddFlag != 0 {
		res = append(res, data[0]&0x0F)
	} else if data[0]&0x0F != 0 {
		return nil, false, fmt.Errorf("%w: non-zero hex-prefix padding", ErrMalformedEncoding)
	}
	for _, b := range data[1:] {
		res = append(res, b>>4, b&0x0F)
	}
	return res, flag&hpLeafFlag != 0, nil
}

// lcp returns the length of the longest common prefix of a and b.
func lcp(a, b []byte) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return len(a)
}
