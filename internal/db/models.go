package db

type User struct {
	ID       int64
	Username string
}

type Cookie struct {
	UserID       int64
	Cfid         string
	Cftoken      string
	Sessionid    string
	Sessiontoken string
}
