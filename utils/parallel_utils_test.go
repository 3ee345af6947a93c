package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Buckets tile the index range in order
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			next := 0
			for bn := 0; bn < pm.ParallelDegree; bn++ {
				kMin, kMax := pm.GetBucketRange(bn)
				assert.Equal(t, next, kMin)
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
}

func TestParallelDegree(t *testing.T) {
	assert.Equal(t, 4, ParallelDegree(4, 100))
	assert.Equal(t, 1, ParallelDegree(8, 3))
	assert.Equal(t, 1, ParallelDegree(-2, 100))
	assert.GreaterOrEqual(t, ParallelDegree(0, 1<<20), 1)
}

func TestApplyVisitsEveryIndexOnce(t *testing.T) {
	for _, np := range []int{1, 3, 7} {
		var (
			n      = 103
			pm     = NewPartitionMap(np, n)
			counts = make([]int32, n)
		)
		pm.Apply(func(_, kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&counts[k], 1)
			}
		})
		for k := 0; k < n; k++ {
			assert.Equal(t, int32(1), counts[k])
		}
		var visited int32
		pm.ApplyRange(10, 20, func(kMin, kMax int) {
			assert.True(t, kMin >= 10 && kMax <= 20)
			atomic.AddInt32(&visited, int32(kMax-kMin))
		})
		assert.Equal(t, int32(10), visited)
	}
}
