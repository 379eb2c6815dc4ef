package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) listTopics(c *gin.Context) {
	topics, err := s.shell.Topics(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"topics": topics})
}

type favouriteRequest struct {
	IsFavourite *bool `json:"isFavourite" binding:"required"`
}

func (s *Server) setFavourite(c *gin.Context) {
	var req favouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}
	id := c.Param("id")
	if err := s.shell.ToggleFavourite(c.Request.Context(), userID(c), id, *req.IsFavourite); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "isFavourite": *req.IsFavourite})
}

func (s *Server) selectTopic(c *gin.Context) {
	name, err := s.shell.SelectTopic(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"topic": name})
}

func (s *Server) listResults(c *gin.Context) {
	results, err := s.shell.Results(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"results": results})
}

func (s *Server) sidebar(c *gin.Context) {
	sb, err := s.shell.Sidebar(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sb)
}
