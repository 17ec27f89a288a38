package docstore

// MaxBatchOps keeps a safe margin under the store's hard 500-op ceiling.
const MaxBatchOps = 450

type bulkOp struct {
	path string
	id   string
	data map[string]any
}

func chunkOps(ops []bulkOp, size int) [][]bulkOp {
	if size <= 0 {
		size = MaxBatchOps
	}
	var chunks [][]bulkOp
	for len(ops) > 0 {
		n := size
		if len(ops) < n {
			n = len(ops)
		}
		chunks = append(chunks, ops[:n])
		ops = ops[n:]
	}
	return chunks
}
