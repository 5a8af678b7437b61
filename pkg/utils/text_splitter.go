package utils

// SplitText splits a long string into chunks of approximately
// 'chunkSize' characters with 'overlap' characters carried between
// neighbors, so a recommendation straddling a boundary survives in at
// least one chunk. Character-based on purpose: guideline documents mix
// prose and tables, and token-aware splitting buys little there.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
