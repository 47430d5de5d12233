// Copyright (c) 2026 Qumran. All rights reserved.

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qumran/qumran/pkg/convert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, convert.ToInt("42"))
	assert.Equal(t, 7, convert.ToInt(" 7 "))
	assert.Equal(t, 0, convert.ToInt("abc"))
	assert.Equal(t, 0, convert.ToInt(""))
}

func TestToIntD(t *testing.T) {
	assert.Equal(t, 3, convert.ToIntD("3", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
	assert.Equal(t, 1, convert.ToIntD("x", 1))
}
