// Package fswatch 把文件系统变化转换为总线事件
//
// Watcher 基于 fsnotify 监视一组目录，每个变化以具体类型投递：
// *FileCreated、*FileWritten、*FileRemoved、*FileRenamed。
// 四种类型都实现 Change 接口，监听器可以按具体类型订阅，
// 也可以声明参数为 Change 的处理方法接收全部变化。
package fswatch
