package gridterm

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	q := &OutboundQueue{}
	q.Append([]byte("a"))
	q.AppendString("b")
	q.Append([]byte("c"))
	chunks := q.Drain()
	if len(chunks) != 3 {
		t.Fatalf("len = %d, want 3", len(chunks))
	}
	for i, want := range []string{"a", "b", "c"} {
		if string(chunks[i]) != want {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want)
		}
	}
	if q.Drain() != nil {
		t.Fatal("second drain should be empty")
	}
}

func TestQueueCopiesInput(t *testing.T) {
	q := &OutboundQueue{}
	buf := []byte("abc")
	q.Append(buf)
	buf[0] = 'z'
	chunks := q.Drain()
	if string(chunks[0]) != "abc" {
		t.Fatalf("chunk = %q, caller mutation leaked in", chunks[0])
	}
}

func TestQueueDropsEmpty(t *testing.T) {
	q := &OutboundQueue{}
	q.Append(nil)
	q.AppendString("")
	if q.Len() != 0 {
		t.Fatalf("len = %d, want 0", q.Len())
	}
}

func TestQueueConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	q := &OutboundQueue{}
	const perProducer = 100
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Append([]byte{id, byte(i)})
			}
		}(byte(p))
	}
	wg.Wait()

	last := map[byte]int{0: -1, 1: -1, 2: -1, 3: -1}
	chunks := q.Drain()
	if len(chunks) != 4*perProducer {
		t.Fatalf("len = %d, want %d", len(chunks), 4*perProducer)
	}
	for _, c := range chunks {
		id, seq := c[0], int(c[1])
		if seq <= last[id] {
			t.Fatalf("producer %d out of order: %d after %d", id, seq, last[id])
		}
		last[id] = seq
	}
}
