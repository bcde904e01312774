package report

// SignedDecode reinterprets an unsigned w-bit field v as its two's
// complement signed value, per §4.2. Grounded on hid_element_get_signed_value
// in hidapi_parser.c.
func SignedDecode(v uint32, w int) int32 {
	mask := uint32(1)<<uint(w) - 1
	v &= mask
	if v&(1<<uint(w-1)) == 0 {
		return int32(v)
	}
	return -int32((^v&mask)+1)
}

// signedConditional implements the parser's rule for LOGICAL_MAX/
// PHYSICAL_MAX: when the paired min was already known to be non-negative,
// the max is taken as unsigned rather than sign-extended, so ranges such
// as 0..65535 survive intact.
func signedConditional(v uint32, w int, pairedMinIsNonNegative bool) int32 {
	if pairedMinIsNonNegative {
		return int32(v)
	}
	return SignedDecode(v, w)
}
