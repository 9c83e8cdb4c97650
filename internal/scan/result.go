package scan

// Result holds one disk's diff counters for a single scan pass (spec §8
// "idempotence": a no-op scan yields equal=N, moved=change=remove=insert=0).
type Result struct {
	Disk string

	Equal  int
	Moved  int
	Change int
	Remove int
	Insert int
}
