package model

type Book struct {
	ID       string `db:"id"`
	OwnerID  string `db:"owner_id"`
	Title    string `db:"title"`
	ImageURL string `db:"image_url"`
	Archived bool   `db:"archived"`
}
