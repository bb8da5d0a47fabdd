package sheet

// Paginate splits items into page-sized chunks, preserving order. Every
// chunk holds perPage items except possibly the last. The chunks share the
// backing array of items; callers must not mutate them.
func Paginate(items []string, perPage int) [][]string {
	if perPage < 1 || len(items) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(items)+perPage-1)/perPage)
	for start := 0; start < len(items); start += perPage {
		end := start + perPage
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
