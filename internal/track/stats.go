package track

// Stats recomputes the aggregate defect view from the canonical set. Never
// cached: two calls with no intervening run always agree.
func (c *Catalog) Stats() DefectStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := DefectStats{
		BySeverity: map[Severity]int{
			SeverityCritical: 0,
			SeverityHigh:     0,
			SeverityMedium:   0,
			SeverityLow:      0,
		},
		ByCategory: make(map[string]int),
	}
	for _, d := range c.defects {
		s.Total++
		if d.Status == StatusOpen {
			s.Open++
		} else {
			s.Fixed++
		}
		s.BySeverity[NormalizeSeverity(string(d.Severity))]++
		if d.Category != "" {
			s.ByCategory[d.Category]++
		}
	}
	return s
}
