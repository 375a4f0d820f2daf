package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/benmeehan/procstat-agent/internal/utils"
	"github.com/benmeehan/procstat-agent/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWriteDefaultConfig(t *testing.T) {
	t.Run("new file", func(t *testing.T) {
		mockFileClient := new(mocks.MockFileOperations)
		mockFileClient.On("IsFileExists", "agent.yaml").Return(false, nil)
		mockFileClient.On("WriteYamlFile", "agent.yaml", utils.DefaultConfig()).Return(nil)

		assert.NoError(t, writeDefaultConfig(mockFileClient, "agent.yaml", false))
		mockFileClient.AssertExpectations(t)
	})

	t.Run("existing file without force", func(t *testing.T) {
		mockFileClient := new(mocks.MockFileOperations)
		mockFileClient.On("IsFileExists", "agent.yaml").Return(true, nil)

		assert.ErrorContains(t, writeDefaultConfig(mockFileClient, "agent.yaml", false), "already exists")
		mockFileClient.AssertNotCalled(t, "WriteYamlFile", mock.Anything, mock.Anything)
	})

	t.Run("existing file with force", func(t *testing.T) {
		mockFileClient := new(mocks.MockFileOperations)
		mockFileClient.On("IsFileExists", "agent.yaml").Return(true, nil)
		mockFileClient.On("WriteYamlFile", "agent.yaml", mock.Anything).Return(nil)

		assert.NoError(t, writeDefaultConfig(mockFileClient, "agent.yaml", true))
	})

	t.Run("stat error", func(t *testing.T) {
		mockFileClient := new(mocks.MockFileOperations)
		mockFileClient.On("IsFileExists", "agent.yaml").Return(false, errors.New("permission denied"))

		assert.Error(t, writeDefaultConfig(mockFileClient, "agent.yaml", false))
	})
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	assert.NoError(t, cmd.Execute())
	assert.Equal(t, "dev\n", out.String())
}

func TestRootCmd_MissingConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", "/nonexistent/procstat.yaml"})

	assert.Error(t, cmd.Execute())
}
