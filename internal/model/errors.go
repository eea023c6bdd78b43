package model

import "errors"

var ErrNoRecord = errors.New("no record")
