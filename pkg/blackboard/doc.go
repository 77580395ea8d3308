/*
Package blackboard implements the typed key-value store shared by the nodes of one tree.

Every entry carries a type tag (bool, int, double or string) fixed when the key is first
created. All access paths check the tag and report a domain.TypeMismatchError instead of
reinterpreting the stored value.

Keys are created lazily: reading a missing key through GetOrCreate seeds it with the zero
value of the requested type, so leaf actions can probe shared state without a registration
step. A strict blackboard (WithStrict) turns that off and only accepts keys added by Declare.

	bb := blackboard.New()
	hp, err := blackboard.GetOrCreate[int](bb, "hp") // creates "hp" = 0
	if err != nil {
		return err
	}
	hp.Set(100)
	_, err = blackboard.GetOrCreate[string](bb, "hp") // TypeMismatchError

A Blackboard is not safe for concurrent use. Trees are ticked from a single goroutine; an
application that shares one blackboard between goroutines must serialize access itself
(pkg/runner does this for the trees it drives).
*/
package blackboard
