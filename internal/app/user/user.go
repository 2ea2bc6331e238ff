/*
Package user defines the identity a connection or request acts as.
*/
package user

// User is the public identity of an account. Its JSON form is the entry shape of
// presence snapshots and the people list.
type User struct {
	ID       string `json:"userId"`
	Username string `json:"username"`
}
