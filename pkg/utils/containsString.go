package utils

// ContainsString reports whether value is present in slice. Used for the
// small lists kept in configs, e.g. allowed instance IDs.
func ContainsString(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
