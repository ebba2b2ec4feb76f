package response

import "reserveit/internal/data/entity"

type ResourceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

func ResourceToResponse(r *entity.Resource) ResourceResponse {
	return ResourceResponse{
		ID:   r.ID.String(),
		Name: r.Name,
	}
}
