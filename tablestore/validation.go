package tablestore

func isValidTableID(tableID *string) bool {
	return isValidResourceID(tableID)
}

func isValidAppProfileID(profileID *string) bool {
	return isValidResourceID(profileID)
}

// Table and app profile IDs follow the service naming rule: 1 to 50
// characters, starting with a letter, digit or underscore, the rest may also
// contain '-' and '.'.
func isValidResourceID(id *string) bool {
	if id == nil {
		return false
	}

	idLen := len(*id)
	if idLen < 1 || idLen > 50 {
		return false
	}

	for i, v := range *id {
		switch {
		case 'a' <= v && v <= 'z':
		case 'A' <= v && v <= 'Z':
		case '0' <= v && v <= '9':
		case v == '_':
		case (v == '-' || v == '.') && i > 0:
		default:
			return false
		}
	}
	return true
}

func isValidRegion(region string) bool {
	if len(region) == 0 {
		return false
	}
	for _, v := range region {
		if !(('a' <= v && v <= 'z') || ('0' <= v && v <= '9') || v == '-') {
			return false
		}
	}
	return true
}
