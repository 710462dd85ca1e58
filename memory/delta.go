package memory

import (
	"time"

	"github.com/acelabs/ace-go-sdk/core"
)

// MinInsightConfidence gates which reflections become memory. Insights
// below it are dropped silently so low-quality reflections never pollute
// the store.
const MinInsightConfidence = 0.5

// DeltaFromInsights converts confident insights into a delta of fresh
// bullets, each tagged with its insight type.
func DeltaFromInsights(insights []core.Insight) core.DeltaUpdate {
	bullets := make([]core.Bullet, 0, len(insights))
	for _, in := range insights {
		if in.Confidence < MinInsightConfidence {
			continue
		}
		bullets = append(bullets, NewBullet(in.Content, []string{in.Type}))
	}
	return core.DeltaUpdate{Bullets: bullets, Timestamp: time.Now()}
}
