package clandomain

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateClan(t *testing.T) {
	t.Run("decayed member pp", func(t *testing.T) {
		got, ok := AggregateClan([]Member{
			{PlayerID: "b", PP: 800, Rank: 20, AverageRankedAccuracy: 0.95},
			{PlayerID: "c", PP: 600, Rank: 30, AverageRankedAccuracy: 0.90},
			{PlayerID: "a", PP: 1000, Rank: 10, AverageRankedAccuracy: 0.97},
		})
		require.True(t, ok)
		assert.InDelta(t, 1000+800*0.965+600*0.965*0.965, got.PP, 1e-9)
		assert.InDelta(t, 2330.735, got.PP, 1e-3)
		assert.InDelta(t, (0.95+0.90+0.97)/3, got.AverageAccuracy, 1e-12)
		assert.InDelta(t, 20.0, got.AverageRank, 1e-12)
		assert.Equal(t, 3, got.PlayersCount)
	})

	t.Run("empty clan is skipped", func(t *testing.T) {
		_, ok := AggregateClan(nil)
		assert.False(t, ok)
	})

	t.Run("single member counts in full", func(t *testing.T) {
		got, ok := AggregateClan([]Member{{PlayerID: "a", PP: 321.5, Rank: 7, AverageRankedAccuracy: 0.9}})
		require.True(t, ok)
		assert.Equal(t, 321.5, got.PP)
		assert.Equal(t, 7.0, got.AverageRank)
		assert.Equal(t, 1, got.PlayersCount)
	})
}

func TestAggregateClanOrderIndependent(t *testing.T) {
	f := gofakeit.New(7)

	for run := 0; run < 20; run++ {
		members := make([]Member, f.Number(1, 40))
		for i := range members {
			members[i] = Member{
				PlayerID:              f.UUID(),
				PP:                    float64(f.Number(0, 20000)) / 10,
				Rank:                  f.Number(1, 5000),
				AverageRankedAccuracy: float64(f.Number(5000, 10000)) / 10000,
			}
		}
		want, ok := AggregateClan(members)
		require.True(t, ok)

		f.ShuffleAnySlice(members)
		got, _ := AggregateClan(members)

		assert.InDelta(t, want.PP, got.PP, 1e-6)
		assert.InDelta(t, want.AverageAccuracy, got.AverageAccuracy, 1e-9)
		assert.InDelta(t, want.AverageRank, got.AverageRank, 1e-9)
		assert.LessOrEqual(t, got.PP, sumPP(members))
	}
}

func sumPP(members []Member) float64 {
	var total float64
	for _, m := range members {
		total += m.PP
	}
	return total + 1e-6
}
