package lobby

import "time"

// nowMillis is the default clock used when New is given no override. The
// clock is an external collaborator per spec; tests inject a fixed
// function instead of depending on wall time.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
