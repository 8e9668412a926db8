package messaging

import "github.com/segmentio/kafka-go"

// HeaderCarrier exposes Kafka record headers as a propagation.TextMapCarrier,
// so trace context rides along with produced and consumed records.
type HeaderCarrier struct {
	headers *[]kafka.Header
}

func NewHeaderCarrier(headers *[]kafka.Header) HeaderCarrier {
	return HeaderCarrier{headers: headers}
}

// Get returns the last value written under key. Producers may append a
// header more than once; the newest one wins.
func (c HeaderCarrier) Get(key string) string {
	hs := *c.headers
	for i := len(hs) - 1; i >= 0; i-- {
		if hs[i].Key == key {
			return string(hs[i].Value)
		}
	}
	return ""
}

// Set replaces every header named key with a single value.
func (c HeaderCarrier) Set(key, value string) {
	kept := (*c.headers)[:0]
	for _, h := range *c.headers {
		if h.Key != key {
			kept = append(kept, h)
		}
	}
	*c.headers = append(kept, kafka.Header{Key: key, Value: []byte(value)})
}

func (c HeaderCarrier) Keys() []string {
	seen := make(map[string]struct{}, len(*c.headers))
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		if _, ok := seen[h.Key]; ok {
			continue
		}
		seen[h.Key] = struct{}{}
		keys = append(keys, h.Key)
	}
	return keys
}
