package utils

import (
	"runtime"
	"sync"
)

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets. Each worker owns exactly one bucket and writes only
// inside it.
type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.split(n)
	}
	return
}

// ParallelDegree resolves a requested worker count: 0 means one per CPU, and
// the count never exceeds the number of items to split.
func ParallelDegree(procLimit, maxIndex int) (np int) {
	if procLimit != 0 {
		np = procLimit
	} else {
		np = runtime.NumCPU()
	}
	if np > maxIndex || np < 1 {
		np = 1
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

// split returns the range owned by bucket bn. The first MaxIndex %
// ParallelDegree buckets take one extra index.
func (pm *PartitionMap) split(bn int) (bucket [2]int) {
	var (
		width = pm.MaxIndex / pm.ParallelDegree
		extra = pm.MaxIndex % pm.ParallelDegree
	)
	bucket[0] = bn*width + min(bn, extra)
	bucket[1] = bucket[0] + width
	if bn < extra {
		bucket[1]++
	}
	return
}

// Apply runs f once per bucket and returns after every bucket is done.
// A single bucket runs on the calling goroutine.
func (pm *PartitionMap) Apply(f func(bn, kMin, kMax int)) {
	if pm.ParallelDegree == 1 {
		f(0, pm.Partitions[0][0], pm.Partitions[0][1])
		return
	}
	wg := sync.WaitGroup{}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			f(np, kMin, kMax)
			wg.Done()
		}(np)
	}
	wg.Wait()
}

// ApplyRange is Apply restricted to [lo, hi); buckets outside the window are
// skipped.
func (pm *PartitionMap) ApplyRange(lo, hi int, f func(kMin, kMax int)) {
	pm.Apply(func(_, kMin, kMax int) {
		if kMin < lo {
			kMin = lo
		}
		if kMax > hi {
			kMax = hi
		}
		if kMin < kMax {
			f(kMin, kMax)
		}
	})
}
