package utils

import "time"

func StringPtr(s string) *string       { return &s }
func TimePtr(t time.Time) *time.Time   { return &t }
func Float64Ptr(f float64) *float64    { return &f }
func IntPtr(i int) *int                { return &i }
