package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/Jigar634859/skyportal/internal/domain"
)

// formatINR renders whole rupees with Indian digit grouping: ₹1,23,456.
func formatINR(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}

func formatDateTime(d domain.DateTime) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02 Jan 2006 15:04")
}
