package category

type CategoryResponse struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
