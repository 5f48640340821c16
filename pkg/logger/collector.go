package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Publisher ships aggregated log digests somewhere (Kafka in production).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval (e.g., 30s)
	CountThreshold int           // max unique entries before flush (e.g., 100)
	Topic          string
	Publisher      Publisher
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector folds repeated error logs into counted digests so that a
// failing upstream produces one message per interval instead of one per retry.
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	mutex  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.TimeInterval <= 0 {
		config.TimeInterval = 30 * time.Second
	}
	if config.CountThreshold <= 0 {
		config.CountThreshold = 100
	}
	ctx, cancel := context.WithCancel(context.Background())

	collector := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		ctx:    ctx,
		cancel: cancel,
	}

	collector.wg.Add(1)
	go collector.periodicFlush()

	return collector
}

func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := d.generateKey(level, message, fields, caller)

	d.mutex.Lock()
	if entry, exists := d.logMap[key]; exists {
		entry.Count++
		entry.LastSeen = now
	} else {
		d.logMap[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	var batch []AggregatedLogEntry
	if len(d.logMap) >= d.config.CountThreshold {
		batch = d.drain()
	}
	d.mutex.Unlock()

	if batch != nil {
		go d.publish(batch)
	}
}

// Pending returns a snapshot of the not yet flushed digests, oldest first.
func (d *LogCollector) Pending() []AggregatedLogEntry {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]AggregatedLogEntry, 0, len(d.logMap))
	for _, e := range d.logMap {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstSeen.Before(out[j].FirstSeen) })
	return out
}

// Flush publishes pending digests synchronously.
func (d *LogCollector) Flush(ctx context.Context) error {
	d.mutex.Lock()
	batch := d.drain()
	d.mutex.Unlock()
	if len(batch) == 0 || d.config.Publisher == nil {
		return nil
	}
	return d.config.Publisher.PublishMessage(ctx, d.config.Topic, batch)
}

func (d *LogCollector) generateKey(level, message string, fields map[string]interface{}, caller string) string {
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (d *LogCollector) periodicFlush() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.mutex.Lock()
			batch := d.drain()
			d.mutex.Unlock()
			if len(batch) > 0 {
				d.publish(batch)
			}
		case <-d.ctx.Done():
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = d.Flush(ctx)
			cancel()
			return
		}
	}
}

// drain must be called with the mutex held.
func (d *LogCollector) drain() []AggregatedLogEntry {
	if len(d.logMap) == 0 {
		return nil
	}
	logs := make([]AggregatedLogEntry, 0, len(d.logMap))
	for _, entry := range d.logMap {
		logs = append(logs, *entry)
	}
	d.logMap = make(map[string]*AggregatedLogEntry)
	return logs
}

func (d *LogCollector) publish(batch []AggregatedLogEntry) {
	if d.config.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.config.Publisher.PublishMessage(ctx, d.config.Topic, batch); err != nil {
		fmt.Fprintf(os.Stderr, "failed to send aggregated logs: %v\n", err)
	}
}

func (d *LogCollector) Close() {
	d.once.Do(func() {
		d.cancel()
		d.wg.Wait()
	})
}
