package service

import "errors"

var errConversationVanished = errors.New("conversation row was already gone")
