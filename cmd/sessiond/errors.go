package main

import "errors"

var errInvalidToken = errors.New("identifier is not valid")
